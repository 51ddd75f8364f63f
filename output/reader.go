// SPDX-License-Identifier: EPL-2.0

package output

import (
	"github.com/ik5/soundscape/graph"
	"github.com/ik5/soundscape/utils"
)

const (
	DefaultBlockFrames = 512
	bytesPerFrame      = 4
)

// pcmReader pulls blocks from a renderer and serves them as signed 16-bit
// little-endian stereo. It never returns io.EOF.
type pcmReader struct {
	r     graph.Renderer
	block int
	buf   []float32
}

func newPCMReader(r graph.Renderer, blockFrames int) *pcmReader {
	if blockFrames <= 0 {
		blockFrames = DefaultBlockFrames
	}

	return &pcmReader{r: r, block: blockFrames, buf: make([]float32, 2*blockFrames)}
}

func (p *pcmReader) Read(b []byte) (int, error) {
	frames := min(len(b)/bytesPerFrame, p.block)
	if frames == 0 {
		return 0, nil
	}

	samples := p.buf[:2*frames]
	p.r.Process(samples)

	return utils.PutInt16LE(b, samples), nil
}
