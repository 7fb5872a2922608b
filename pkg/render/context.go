// Package render holds what generators share while producing output: the
// build context, the file writer and a few presentation helpers.
package render

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/blimu-dev/apiblocks/pkg/config"
)

// Context is passed explicitly to every generator of a build.
type Context struct {
	Config    *config.Config
	Writer    *Writer
	BuildDate time.Time
	Logger    logrus.FieldLogger
}

// NewContext prepares the writer for cfg.OutDir and stamps the build date.
func NewContext(cfg *config.Config, logger logrus.FieldLogger) (*Context, error) {
	w, err := NewWriter(cfg.OutDir, cfg.ShouldExcludeFile)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Context{
		Config:    cfg,
		Writer:    w,
		BuildDate: time.Now().UTC(),
		Logger:    logger,
	}, nil
}

// BuildDay formats the build date the way pages display it.
func (c *Context) BuildDay() string {
	return c.BuildDate.Format("2006-01-02")
}
