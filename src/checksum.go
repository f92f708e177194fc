package cassette

/*------------------------------------------------------------------
 *
 * Name:	Checksum
 *
 * Purpose:	Compute the block checksum used by the Sorcerer monitor.
 *
 * Inputs:	block	- Header record or data block payload.
 *
 * Returns:	8-bit checksum to compare with the byte after the block.
 *
 * Description:	acc starts at 0 and for each byte
 *
 *			acc = ^(b - acc)
 *
 *		The subtraction wraps modulo 256.  That is how the
 *		monitor computes it and is not an error.
 *
 *------------------------------------------------------------------*/

func Checksum(block []byte) uint8 {
	var acc uint8
	for _, b := range block {
		acc = ^(b - acc)
	}
	return acc
}
