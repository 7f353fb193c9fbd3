package parse

type parseOpts struct {
	lineSep string
	maxLine int
}

type ParseOption func(*parseOpts)

// LineSeparator sets the separator used to join the content lines of an
// object section.
func LineSeparator(sep string) ParseOption {
	return func(o *parseOpts) { o.lineSep = sep }
}

// MaxLineSize bounds the length of a single input line.
func MaxLineSize(n int) ParseOption {
	return func(o *parseOpts) { o.maxLine = n }
}
