// Package command is the base for toolkit commands built on urfave/cli.
//
// A Command returns a result instead of printing it. ToCLI wraps it in a
// *cli.Command whose action validates arguments, runs the command through
// SafeExecute and prints the result in the format chosen with --output.
//
// Every run gets a ULID run ID, attached to the logger in the command's
// context (see logger.L).
package command
