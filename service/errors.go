package service

import "errors"

var (
	// ErrAnswerNotParseable means the model's raw output could not be
	// decoded as JSON at all.
	ErrAnswerNotParseable = errors.New("answer response is not parseable")

	// ErrAnswerSchema means the output decoded but violates the
	// two-string-field contract.
	ErrAnswerSchema = errors.New("answer response is missing required fields")

	// ErrNoDocument means the session has no uploaded document yet.
	ErrNoDocument = errors.New("no document uploaded for this session")
)
