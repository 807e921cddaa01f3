package routes

import (
	accountControllers "github.com/vansh565/Nexus-store/controllers/account"
	socket "github.com/vansh565/Nexus-store/controllers/socket"
)

// authCommands covers account creation and the session lifecycle.
func authCommands(svc *Services) []socket.Command {
	ttl := svc.Config.Session.TTL
	return []socket.Command{
		{Name: "signup", Handle: accountControllers.Signup(svc.DB, ttl)},
		{Name: "login", Handle: accountControllers.Login(svc.DB, ttl)},
		{Name: "validateSession", Auth: true, Handle: accountControllers.ValidateSession(svc.DB)},
		{Name: "logout", EndsSession: true, Handle: accountControllers.Logout(svc.DB)},
	}
}
