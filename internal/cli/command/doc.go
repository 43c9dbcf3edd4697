// Package command defines the clikit commands.
//
// clikit exercises the toolkit end to end: its own configuration goes through
// the resolver (defaults embedded in the binary, a user file, CLIKIT_*
// environment overrides), secrets go through the credential manager, and
// "update check" asks the module proxy or GitHub for newer releases.
//
//	clikit config show
//	clikit config set update.source github
//	CLIKIT_OUTPUT_FORMAT=json clikit version
package command
