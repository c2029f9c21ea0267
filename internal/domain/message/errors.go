package message

import "errors"

var ErrIncomplete = errors.New("message is missing required fields")
