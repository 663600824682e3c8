/*

Process of compilation

Expression Text ->
	parse ->
Abstract Syntax Tree (ast) ->
	generate ->
Assembly Text (asm) ->
	as + ld (external toolchain) ->
Binary Executable

The executable evaluates the expression and exits with its value,
truncated by the os to the exit status width.

*/
package compiler
