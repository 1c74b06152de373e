// @title           Help Desk Delta API
// @version         1.0
// @description     Ticketing service: sessions, tickets, users, calendar and the email relay.
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"os"

	"github.com/ThalesFiorin/HelpDeskDelta/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
