// Package pathquery resolves path expressions against semi-structured
// documents (nested mappings, sequences, scalars), yielding every value
// the expression selects.
//
// The segment grammar is open: an Engine owns an ordered registry of
// segment descriptors, each responsible for parsing its own syntax
// fragment, evaluating itself against document values, and converting
// itself to and from a tagged record form. Registration order is parse
// precedence.
//
// Built-in segments:
//   - name            mapping key, also ['quoted name']
//   - [i]             sequence index, negative counts from the end
//   - [a:b:c]         slice with conventional semantics
//   - *  or  [*]      every mapping value / sequence element
//   - **              the value itself plus all descendants, pre-order
//   - [?(<expr>)]     filter by predicate over each candidate (@)
//   - ~r/pat/flags    mapping keys matching an anchored regex
//
// Evaluation never fails on missing data: absent keys, out-of-range
// indices and type mismatches select nothing. Errors surface only from
// parsing, registration and record decoding.
package pathquery
