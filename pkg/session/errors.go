package session

import "errors"

var errIndexOutOfRange = errors.New("session: candidate index out of range")
