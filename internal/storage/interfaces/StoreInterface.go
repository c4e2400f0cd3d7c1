package interfaces

// StoreInterface is the durable key-value port. Values are opaque JSON documents.
type StoreInterface interface {
	// Get returns models.ErrNotFound when the key is absent.
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	// Keys returns every key with the prefix in ascending order.
	Keys(prefix string) ([]string, error)
}
