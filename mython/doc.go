// Package mython implements the Mython execution engine: a small,
// Python-flavoured language with the following constructs:
//   - Single-inheritance classes with dunder-style methods (__init__,
//     __str__, __eq__, __lt__, __add__).
//   - Integers, strings, booleans, and a None singleton.
//   - Assignment, including dotted field assignment (obj.field = expr).
//   - if/else, print, and method-call return via a non-local exit.
//   - Arithmetic (+ - * /), comparison (== != < > <= >=), and logical
//     (and/or/not) operators.
//
// Comments beginning with # are ignored. Indentation is significant: two
// spaces per nesting level, exactly as in the source grammar this
// interpreter implements.
package mython
