// Package token holds the lexical helpers shared by the Gluon reader and
// writer: a delimiter tokenizer that leaves quoted segments intact, and
// quoting of string and character literals.
package token
