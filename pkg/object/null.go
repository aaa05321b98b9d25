package object

// validateNull accepts the payload slice following a Null tag byte. Null
// carries no payload, so it consumes nothing and the caller's remaining
// slice is unchanged.
func validateNull(body []byte) (consumed []byte, rest []byte, err error) {
	return body[:0], body, nil
}
