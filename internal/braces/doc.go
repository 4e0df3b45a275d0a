// Package braces checks that '{' and '}' characters in a text balance.
//
// The scanner is not language aware: strings, comments and escapes are not
// recognised, every brace character counts. It walks the content one
// character (code point) at a time, keeps a stack of open braces and
// produces a Finding for every '}' that arrives with an empty stack and for
// every '{' still on the stack when the content ends.
//
// Findings come out in a fixed order: unmatched closers in scan order, then
// unmatched openers from the bottom of the stack to the top.
package braces
