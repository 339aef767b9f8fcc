// Package config assembles the settings of one run from command line flags,
// RELSURV_ environment variables (optionally loaded from a .env file) and an
// optional config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/araddon/dateparse"
	"github.com/carbocation/relsurv/cohort"
	"github.com/carbocation/relsurv/tableio"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "RELSURV"

// Flag names. Config file keys are the same; environment variables are the
// upper-cased names with - replaced by _ and prefixed by RELSURV_.
const (
	FlagInPath        = "inpath"
	FlagOutPath       = "outpath"
	FlagColIndex      = "col-index"
	FlagColDxYear     = "col-dod-yyyy"
	FlagColDxMonth    = "col-dod-mm"
	FlagColDxDay      = "col-dod-dd"
	FlagColLcYear     = "col-dolc-yyyy"
	FlagColLcMonth    = "col-dolc-mm"
	FlagColLcDay      = "col-dolc-dd"
	FlagColVital      = "col-vital-status"
	FlagAlive         = "vital-status-value-alive"
	FlagDeceased      = "vital-status-value-deceased"
	FlagFileType      = "filetype"
	FlagReaderOptions = "reader-options"
	FlagStudyEnd      = "study-end"
	FlagUnknownStatus = "unknown-status"
	FlagNegative      = "negative-survival"
	FlagOutCensor     = "out-col-censor"
	FlagOutSurvival   = "out-col-survival"
	FlagConfig        = "config"
	FlagLogLevel      = "log-level"
)

// Settings is everything a run needs, validated.
type Settings struct {
	Source  tableio.Source
	OutPath string
	Output  cohort.OutputHeader
	Cohort  cohort.Options

	LogLevel   logrus.Level
	ConfigFile string
}

// RegisterFlags adds every setting to fs with its default.
func RegisterFlags(flags *pflag.FlagSet) {
	cols := cohort.DefaultColumns()

	flags.String(FlagInPath, "", "Path to the input table (local path, gs:// path, or project.dataset.table for bigquery)")
	flags.String(FlagOutPath, "", "Path for the output CSV (local or gs://). Must not already exist.")

	flags.String(FlagColIndex, cols.Index, "Column with the patient identifier")
	flags.String(FlagColDxYear, cols.DiagnosisYear, "Column with the year of diagnosis")
	flags.String(FlagColDxMonth, cols.DiagnosisMonth, "Column with the month of diagnosis")
	flags.String(FlagColDxDay, cols.DiagnosisDay, "Column with the day of diagnosis")
	flags.String(FlagColLcYear, cols.LastContactYear, "Column with the year of last contact")
	flags.String(FlagColLcMonth, cols.LastContactMonth, "Column with the month of last contact")
	flags.String(FlagColLcDay, cols.LastContactDay, "Column with the day of last contact")
	flags.String(FlagColVital, cols.VitalStatus, "Column with the vital status")

	flags.String(FlagAlive, cohort.DefaultAlive, "Vital status value indicating the patient is alive")
	flags.String(FlagDeceased, cohort.DefaultDeceased, "Vital status value indicating the patient is deceased")

	flags.String(FlagFileType, string(tableio.FormatExcel), fmt.Sprintf("Input file type, one of %v", tableio.Formats))
	flags.String(FlagReaderOptions, "{}", `Reader options as a JSON object, e.g. '{"sep": ";", "skiprows": 1}'`)

	flags.String(FlagStudyEnd, cohort.DefaultStudyEnd.String(), "Administrative end of the study. Later deaths are censored and later contacts clipped to this date.")
	flags.String(FlagUnknownStatus, string(cohort.UnknownStatusReject), "What to do with vital status values that are neither alive nor deceased: 'error' or 'missing' (empty censor flag)")
	flags.String(FlagNegative, string(cohort.NegativeSurvivalDrop), "What to do when last contact precedes diagnosis: 'drop', 'error' or 'keep'")

	flags.String(FlagOutCensor, cohort.DefaultCensorColumn, "Name of the censor column in the output")
	flags.String(FlagOutSurvival, cohort.DefaultSurvivalColumn, "Name of the survival column in the output")

	flags.String(FlagConfig, "", "Optional YAML, JSON or TOML file with any of these settings")
	flags.String(FlagLogLevel, logrus.InfoLevel.String(), "Log level: debug, info, warning or error")
}

// LoadDotEnv loads environment variables from the given files, or from .env
// in the working directory if none are given. Variables already set are left
// alone and a missing file is not an error.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}

	for _, v := range filenames {
		if err := godotenv.Load(v); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", v, err)
		}
	}

	return nil
}

// Load merges flags, environment and config file into validated Settings.
func Load(flags *pflag.FlagSet) (Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return Settings{}, err
	}

	out := Settings{ConfigFile: v.GetString(FlagConfig)}
	if out.ConfigFile != "" {
		v.SetConfigFile(out.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return out, fmt.Errorf("reading config file %s: %w", out.ConfigFile, err)
		}
	}

	return settings(v, out)
}

func settings(v *viper.Viper, out Settings) (Settings, error) {
	var err error

	out.Source.Path = strings.TrimSpace(v.GetString(FlagInPath))
	if out.Source.Path == "" {
		return out, fmt.Errorf("please provide --%s", FlagInPath)
	}
	out.OutPath = strings.TrimSpace(v.GetString(FlagOutPath))
	if out.OutPath == "" {
		return out, fmt.Errorf("please provide --%s", FlagOutPath)
	}

	if out.Source.Format, err = tableio.ParseFormat(v.GetString(FlagFileType)); err != nil {
		return out, err
	}
	if out.Source.Options, err = tableio.ParseReaderOptions(v.GetString(FlagReaderOptions)); err != nil {
		return out, err
	}
	if err := out.Source.Options.CheckApplies(out.Source.Format); err != nil {
		return out, err
	}

	out.Cohort = cohort.Options{
		Columns: cohort.Columns{
			Index:            v.GetString(FlagColIndex),
			DiagnosisYear:    v.GetString(FlagColDxYear),
			DiagnosisMonth:   v.GetString(FlagColDxMonth),
			DiagnosisDay:     v.GetString(FlagColDxDay),
			LastContactYear:  v.GetString(FlagColLcYear),
			LastContactMonth: v.GetString(FlagColLcMonth),
			LastContactDay:   v.GetString(FlagColLcDay),
			VitalStatus:      v.GetString(FlagColVital),
		},
		Sentinels: cohort.Sentinels{
			Alive:    v.GetString(FlagAlive),
			Deceased: v.GetString(FlagDeceased),
		},
		UnknownStatus:    cohort.UnknownStatusPolicy(strings.ToLower(v.GetString(FlagUnknownStatus))),
		NegativeSurvival: cohort.NegativeSurvivalPolicy(strings.ToLower(v.GetString(FlagNegative))),
	}

	if out.Cohort.StudyEnd, err = ParseStudyEnd(v.GetString(FlagStudyEnd)); err != nil {
		return out, err
	}

	if err := out.Cohort.Validate(); err != nil {
		return out, err
	}

	out.Output = cohort.DefaultOutputHeader(out.Cohort.Columns.Index)
	out.Output.Censor = v.GetString(FlagOutCensor)
	out.Output.Survival = v.GetString(FlagOutSurvival)
	if err := checkOutputHeader(out.Output); err != nil {
		return out, err
	}

	if out.LogLevel, err = logrus.ParseLevel(v.GetString(FlagLogLevel)); err != nil {
		return out, err
	}

	return out, nil
}

// ParseStudyEnd accepts the usual spellings of a date, such as 2020-12-31,
// 12/31/2020 or 31 December 2020. Any time of day is discarded.
func ParseStudyEnd(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return cohort.DefaultStudyEnd, nil
	}

	if d, err := civil.ParseDate(s); err == nil {
		return d, nil
	}

	t, err := dateparse.ParseAny(s)
	if err != nil {
		return civil.Date{}, fmt.Errorf("study end %q is not a recognized date: %w", s, err)
	}

	return civil.DateOf(t), nil
}

func checkOutputHeader(h cohort.OutputHeader) error {
	seen := make(map[string]struct{}, 3)
	for _, v := range h.Fields() {
		if v == "" {
			return fmt.Errorf("output column names must not be empty: %q", h.Fields())
		}
		if _, exists := seen[v]; exists {
			return fmt.Errorf("output column name %q is used twice", v)
		}
		seen[v] = struct{}{}
	}

	return nil
}
