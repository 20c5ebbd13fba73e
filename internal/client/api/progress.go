package api

import "io"

// progressReader wraps a request body of known size and reports the running
// percentage to the observer on every read. The transport pulls from it while
// streaming, so the observer sees byte-level progress.
type progressReader struct {
	r       io.Reader
	total   int64
	read    int64
	lastPct int
	observe ProgressFunc
}

func newProgressReader(r io.Reader, total int64, observe ProgressFunc) *progressReader {
	return &progressReader{r: r, total: total, lastPct: -1, observe: observe}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		p.report()
	}
	return n, err
}

func (p *progressReader) report() {
	if p.observe == nil || p.total <= 0 {
		return
	}
	pct := int(p.read * 100 / p.total)
	if pct > 100 {
		pct = 100
	}
	if pct != p.lastPct {
		p.lastPct = pct
		p.observe(pct)
	}
}
