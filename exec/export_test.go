package exec

// LastLine exposes lastLine for tests.
var LastLine = lastLine
