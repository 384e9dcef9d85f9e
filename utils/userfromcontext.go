package utils

import (
	"net/http"

	"bena/globals"
)

func GetUserIDFromRequest(r *http.Request) string {
	requestingUserID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

func GetUsernameFromRequest(r *http.Request) string {
	username, ok := r.Context().Value(globals.UsernameKey).(string)
	if !ok {
		return ""
	}
	return username
}
