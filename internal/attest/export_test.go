package attest

// Do

func (do *Do) Cancel() {
	do.cancel()
}
