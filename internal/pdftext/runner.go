package pdftext

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Runner executes an external command. The OCR strategy shells out to
// pdftoppm and tesseract through this seam so tests can stub both.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	if err != nil {
		log.Warn().
			Str("cmd", name).
			Str("args", strings.Join(args, " ")).
			Dur("elapsed", time.Since(start)).
			Err(err).
			Msg("exec failed")
	} else {
		log.Debug().
			Str("cmd", name).
			Dur("elapsed", time.Since(start)).
			Int("stdout_bytes", out.Len()).
			Msg("exec ok")
	}
	return out.Bytes(), errb.Bytes(), err
}
