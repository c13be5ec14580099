package maker

import (
	"os/exec"

	"github.com/kballard/go-shellquote"

	"github.com/teranos/pytestgen/errors"
	"github.com/teranos/pytestgen/loader"
	"github.com/teranos/pytestgen/logger"
)

// ErrorReporter receives non-fatal failures for error tracking. The default
// implementation only logs; callers may plug in their tracking system.
type ErrorReporter interface {
	CaptureException(err error)
}

type logReporter struct{}

func (logReporter) CaptureException(err error) {
	logger.Errorw("captured exception", "error", err)
}

// formatArtifacts runs the project formatter over the generated files.
// Formatting is best effort: any failure is logged and reported, never
// propagated, so a broken formatter does not invalidate a generation run.
func formatArtifacts(paths []string, reporter ErrorReporter) {
	if len(paths) == 0 {
		return
	}

	command := "black"
	if meta, err := loader.LoadProjectMeta(paths[0]); err == nil && meta.Settings.Formatter != "" {
		command = meta.Settings.Formatter
	}

	logger.Infof("format pytest cases with %s ...", command)

	words, err := shellquote.Split(command)
	if err != nil {
		reportFormatterFailure(errors.Wrapf(err, "invalid formatter command %q", command), reporter)
		return
	}
	if len(words) == 0 {
		reportFormatterFailure(errors.Newf("empty formatter command %q", command), reporter)
		return
	}

	cmd := exec.Command(words[0], append(words[1:], paths...)...)
	if output, err := cmd.CombinedOutput(); err != nil {
		reportFormatterFailure(
			errors.Wrapf(err, "formatter %q failed: %s", command, output),
			reporter,
		)
	}
}

func reportFormatterFailure(err error, reporter ErrorReporter) {
	logger.Errorf("formatting failed: %v", err)
	if reporter != nil {
		reporter.CaptureException(err)
	}
}
