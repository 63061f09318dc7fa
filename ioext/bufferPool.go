package ioext

import (
	"sync"
)

const (
	defaultBufferSize = 4 * 1024
	copyBufferSize    = 32 * 1024
	maxPoolBufferSize = 1024 * 1024
)

type bufferPoolT struct {
	regular sync.Pool
	large   sync.Pool
}

// BufferPool hands out scratch slices for archive extraction and file copies,
// which run concurrently for every package being installed.
var BufferPool = bufferPoolT{
	regular: sync.Pool{
		New: func() interface{} {
			return make([]byte, defaultBufferSize)
		},
	},
	large: sync.Pool{
		New: func() interface{} {
			return make([]byte, copyBufferSize)
		},
	},
}

func (p *bufferPoolT) GetSlice() []byte {
	return p.regular.Get().([]byte)
}

func (p *bufferPoolT) GetLargeSlice() []byte {
	return p.large.Get().([]byte)
}

func (p *bufferPoolT) PutSlice(bs []byte) {
	bs = bs[:cap(bs)]
	if len(bs) < defaultBufferSize || len(bs) > maxPoolBufferSize {
		// not worth keeping around
	} else if len(bs) >= copyBufferSize {
		p.large.Put(bs)
	} else {
		p.regular.Put(bs)
	}
}
