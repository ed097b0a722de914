// cmd/main.go
package main

import (
	"bank-ledger/app"
)

func main() {
	app.Run()
}
