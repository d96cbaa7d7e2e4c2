// Command playerdex loads a football player catalog from CSV files and
// answers queries over it from a REPL, one-shot commands or HTTP.
package main

func main() {
	execute()
}
