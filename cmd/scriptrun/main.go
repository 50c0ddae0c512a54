// Command scriptrun lists and runs Lua, Python and console command scripts.
package main

import "os"

func main() {
	os.Exit(Main())
}
