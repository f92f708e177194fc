package main

/*------------------------------------------------------------------
 *
 * Purpose:	Recover Exidy Sorcerer programs from cassette recordings.
 *
 *------------------------------------------------------------------*/

import (
	cassette "github.com/doismellburning/sorcerer/src"
)

func main() {
	cassette.CassetteMain()
}
