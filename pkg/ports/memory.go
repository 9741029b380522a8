package ports

// MemoryInfo reports memory available to the process.
type MemoryInfo interface {
	// Available returns the number of bytes that can be allocated
	// without swapping.
	Available() (uint64, error)
}
