package telegram

import (
	"io"

	"telegram-igdl-bot/internal/domain/ports/adapter"
)

// progressReader counts bytes passing through and reports whole percents.
// With an unknown total only the final 100 is reported.
type progressReader struct {
	r      io.Reader
	total  int64
	n      int64
	last   int
	report adapter.ProgressFunc
}

func newProgressReader(r io.Reader, total int64, report adapter.ProgressFunc) *progressReader {
	return &progressReader{r: r, total: total, last: -1, report: report}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.n += int64(n)
	if p.report != nil && p.total > 0 && n > 0 {
		pct := int(p.n * 100 / p.total)
		if pct > 100 {
			pct = 100
		}
		if pct != p.last {
			p.last = pct
			p.report(pct)
		}
	}
	return n, err
}

// finish reports 100 once the transfer is confirmed, unless already reported.
func (p *progressReader) finish() {
	if p.report != nil && p.last != 100 {
		p.last = 100
		p.report(100)
	}
}

func (p *progressReader) Count() int64 { return p.n }
