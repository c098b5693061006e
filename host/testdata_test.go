package host_test

// echoModule is a minimal guest written directly in the binary format. It exports:
//
//	memory            one page
//	allocate(i32)i32  bump allocator over a global starting at 1024
//	release(i32,i32)  no-op
//	echo(i32)i32      returns its input pointer, so the result is the argument array
//	fail(i32)i32      returns the null pointer
var echoModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	// type section: (i32)->i32, (i32,i32)->()
	0x01, 0x0b, 0x02, 0x60, 0x01, 0x7f, 0x01, 0x7f, 0x60, 0x02, 0x7f, 0x7f, 0x00,
	// function section
	0x03, 0x05, 0x04, 0x00, 0x01, 0x00, 0x00,
	// memory section: min 1 page
	0x05, 0x03, 0x01, 0x00, 0x01,
	// global section: mut i32 = 1024
	0x06, 0x07, 0x01, 0x7f, 0x01, 0x41, 0x80, 0x08, 0x0b,
	// export section
	0x07, 0x2d, 0x05,
	0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	0x08, 'a', 'l', 'l', 'o', 'c', 'a', 't', 'e', 0x00, 0x00,
	0x07, 'r', 'e', 'l', 'e', 'a', 's', 'e', 0x00, 0x01,
	0x04, 'e', 'c', 'h', 'o', 0x00, 0x02,
	0x04, 'f', 'a', 'i', 'l', 0x00, 0x03,
	// code section
	0x0a, 0x20, 0x04,
	// allocate: local p; p = top; top += size; return p
	0x11, 0x01, 0x01, 0x7f, 0x23, 0x00, 0x21, 0x01, 0x23, 0x00, 0x20, 0x00, 0x6a, 0x24, 0x00, 0x20, 0x01, 0x0b,
	// release
	0x02, 0x00, 0x0b,
	// echo
	0x04, 0x00, 0x20, 0x00, 0x0b,
	// fail
	0x04, 0x00, 0x41, 0x00, 0x0b,
}

// emptyModule is a valid module with no exports at all.
var emptyModule = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

// badAllocateModule exports memory, release and an allocate taking no parameters.
var badAllocateModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	// type section: ()->i32, (i32,i32)->()
	0x01, 0x0a, 0x02, 0x60, 0x00, 0x01, 0x7f, 0x60, 0x02, 0x7f, 0x7f, 0x00,
	// function section
	0x03, 0x03, 0x02, 0x00, 0x01,
	// memory section
	0x05, 0x03, 0x01, 0x00, 0x01,
	// export section
	0x07, 0x1f, 0x03,
	0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	0x08, 'a', 'l', 'l', 'o', 'c', 'a', 't', 'e', 0x00, 0x00,
	0x07, 'r', 'e', 'l', 'e', 'a', 's', 'e', 0x00, 0x01,
	// code section
	0x0a, 0x09, 0x02,
	0x04, 0x00, 0x41, 0x00, 0x0b,
	0x02, 0x00, 0x0b,
}
