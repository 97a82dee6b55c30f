package protocol

// isReserved reports whether a digit collides with one of the three
// control payloads and therefore needs escaping before it can be sent as
// an item digit.
func isReserved(digit byte) bool {
	return digit == PacketDelim || digit == ItemDelim || digit == Escape
}

// escapeDigit produces the literal that goes out after an Escape payload.
func escapeDigit(digit byte) byte {
	return digit ^ escapeMask
}

// unescapeDigit recovers the original digit from the literal that followed
// an Escape payload. XOR is its own inverse, so this is the same operation
// as escapeDigit.
func unescapeDigit(literal byte) byte {
	return literal ^ escapeMask
}
