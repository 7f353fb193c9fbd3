package encode

type EncodeOption func(*EncState)

// EncodeHandler sets the handler identifier written as the first line of
// the document.  It is written as a comment.
func EncodeHandler(line string) EncodeOption {
	return func(es *EncState) { es.handler = line }
}
func EncodeLineSeparator(sep string) EncodeOption {
	return func(es *EncState) { es.lineSep = sep }
}
func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.Color = c.Color }
}
