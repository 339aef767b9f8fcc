// relsurv computes, for every patient in a clinical cohort, the number of days
// from diagnosis to last contact and whether follow-up ended in death, with
// administrative censoring at the end of the study.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/carbocation/relsurv"
	"github.com/carbocation/relsurv/cohort"
	"github.com/carbocation/relsurv/compileinfo"
	"github.com/carbocation/relsurv/config"
	"github.com/carbocation/relsurv/tableio"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(log).ExecuteContext(ctx); err != nil {
		stop()
		log.Fatalln(err)
	}
}

func newRootCmd(log *logrus.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relsurv --inpath cohort.xlsx --outpath survival.csv",
		Short: "Compute survival days and censor flags for a clinical cohort",
		Long: `relsurv reads a table with one row per patient, rebuilds the dates of
diagnosis and last contact from their year, month and day columns, and writes
a CSV with the patient identifier, a censor flag (0=alive, 1=deceased) and
the number of days from diagnosis to last contact.

Patients diagnosed after the study end are excluded. Deaths after the study
end are treated as alive at the study end, and last contact is clipped to it.
The output path must not exist.

Every flag can also be set through an environment variable named RELSURV_
followed by the flag name in upper case with - replaced by _ (for example
RELSURV_STUDY_END), in a .env file, or in the file named by --config.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return err
			}

			settings, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			log.SetLevel(settings.LogLevel)

			entry := log.WithField("run", uuid.NewString())
			compileinfo.Log(entry)

			return run(cmd.Context(), settings, entry)
		},
	}

	config.RegisterFlags(cmd.Flags())

	return cmd
}

func run(ctx context.Context, s config.Settings, log logrus.FieldLogger) error {
	gsPaths := []string{s.OutPath}
	if s.Source.Format != tableio.FormatBigQuery {
		gsPaths = append(gsPaths, s.Source.Path)
	}

	var client *storage.Client
	if relsurv.AnyGSPath(gsPaths...) {
		var err error
		client, err = storage.NewClient(ctx)
		if err != nil {
			return pfx.Err(err)
		}
		defer client.Close()
	}

	// Checked before anything is read so that no work is wasted
	exists, err := relsurv.PathExists(ctx, s.OutPath, client)
	if err != nil {
		return pfx.Err(err)
	}
	if exists {
		return fmt.Errorf("%w: %s. Please choose another output path", relsurv.ErrOutputExists, s.OutPath)
	}

	if s.ConfigFile != "" {
		log.Infof("Using settings from %s", s.ConfigFile)
	}
	log.Infof("Reading %s (%s)", s.Source.Path, s.Source.Format)

	tab, err := tableio.Read(ctx, s.Source, client)
	if err != nil {
		return pfx.Err(err)
	}

	records, report, err := cohort.Run(tab, s.Cohort, log)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := cohort.WriteCSV(&buf, s.Output, records); err != nil {
		return pfx.Err(err)
	}

	if err := writeOutput(ctx, s.OutPath, buf.Bytes(), client); err != nil {
		return err
	}

	for _, line := range strings.Split(strings.TrimSpace(report.String()), "\n") {
		log.Infoln(line)
	}
	log.Infof("Saved %d rows to %s", report.Written, s.OutPath)

	return nil
}

// writeOutput writes the complete output at once so that a failure while
// computing never leaves a partial file behind.
func writeOutput(ctx context.Context, path string, data []byte, client *storage.Client) error {
	w, err := relsurv.CreateExclusive(ctx, path, client)
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		w.Close()
		return pfx.Err(err)
	}

	return w.Close()
}
