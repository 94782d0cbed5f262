package server

import "errors"

var (
	errLengthMismatch = errors.New("length does not match the number of operations")
	errHashMismatch   = errors.New("transport hash does not match the payload")
)
