package mailship

// Database is the lifecycle of a backing store, whichever driver provides it.
type Database interface {
	Open() error
	Close() error
}
