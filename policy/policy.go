// Package policy holds the pure permission rules shared by the handlers.
package policy

import "net/http"

// IsSafeMethod reports whether the HTTP method only reads state.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// CanWrite reports whether the caller may modify or delete an object owned
// by authorID.
func CanWrite(callerID, authorID uint, callerIsStaff bool) bool {
	return callerIsStaff || (callerID != 0 && callerID == authorID)
}

// Allow combines both rules for a request against an authored object.
func Allow(method string, callerID, authorID uint, callerIsStaff bool) bool {
	return IsSafeMethod(method) || CanWrite(callerID, authorID, callerIsStaff)
}
