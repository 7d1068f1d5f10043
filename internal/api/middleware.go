package api

const (
	authCookieName    = "agenda_session"
	contextSessionKey = "session_email"
)
