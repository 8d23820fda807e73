package repositories

import "fmt"

// ErrEncodeValue occurs when a value cannot be serialised for storage
type ErrEncodeValue struct {
	Field string
	Err   error
}

func (e ErrEncodeValue) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Field, e.Err)
}

func (e ErrEncodeValue) Unwrap() error { return e.Err }

// ErrDecodeValue occurs when a stored JSON column cannot be parsed
type ErrDecodeValue struct {
	Field string
	Err   error
}

func (e ErrDecodeValue) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Field, e.Err)
}

func (e ErrDecodeValue) Unwrap() error { return e.Err }
