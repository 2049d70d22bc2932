package redis

import "fmt"

// Key prefix for all auth-related data
const keyPrefix = "limboauth"

// recordKey returns the Redis key for a CredentialRecord, by lowercase nickname
func recordKey(name string) string {
	return fmt.Sprintf("%s:record:%s", keyPrefix, name)
}

// identifierIndexKey returns the Redis key for the identifier -> nickname index
func identifierIndexKey(identifier string) string {
	return fmt.Sprintf("%s:idx:identifier:%s", keyPrefix, identifier)
}

// failureKey returns the Redis key for a failure-cache entry, by network origin
func failureKey(origin string) string {
	return fmt.Sprintf("%s:failure:%s", keyPrefix, origin)
}
