package main

import (
	"github.com/thereayou/cofoundry/cmd/server"
)

func main() {
	srv := server.NewServer()
	defer srv.Shutdown()

	srv.Run()
}
