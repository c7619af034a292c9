/*
Package base provides shared helpers for bagged: a seeded random generator and a
quote-aware line splitter for CSV input.
*/
package base
