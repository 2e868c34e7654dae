package bind

import "fmt"

//Error is the interface implemented by all errors returned by this library.
//The Decorate method allows adding information to the error as it is passed
//up the call stack, without changing its type or wrapping it around
//something else. If passed an empty string, Decorate just returns the
//current decoration slice.
type Error interface {
	Error() string
	Decorate(string) []string
	Critical() bool
}

//IngestError reports malformed or inconsistent input: atom-count mismatches,
//empty ensembles, unparsable coordinates or scores, and degenerate
//superposition anchors. It is always fatal to the pipeline run.
type IngestError struct {
	message   string
	conformer int
	deco      []string
}

func ingestError(conformer int, format string, a ...interface{}) *IngestError {
	return &IngestError{message: fmt.Sprintf(format, a...), conformer: conformer}
}

func (err *IngestError) Error() string {
	if err.conformer >= 0 {
		return fmt.Sprintf("goBind: conformer %d: %s", err.conformer, err.message)
	}
	return "goBind: " + err.message
}

//Decorate adds dec to the decoration slice of the error and returns the
//resulting slice.
func (err *IngestError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns whether the error can be ignored. It can't.
func (err *IngestError) Critical() bool { return true }

//Conformer returns the identity of the offending conformer, or -1 if the
//error is not attributable to one conformer in particular.
func (err *IngestError) Conformer() int { return err.conformer }

func (err *IngestError) setConformer(id int) { err.conformer = id }

//ConfigError reports an invalid option or option combination. It is raised
//by validation before any computation begins.
type ConfigError struct {
	message string
	deco    []string
}

func configError(format string, a ...interface{}) *ConfigError {
	return &ConfigError{message: fmt.Sprintf(format, a...)}
}

func (err *ConfigError) Error() string {
	return "goBind: bad options: " + err.message
}

//Decorate adds dec to the decoration slice of the error and returns the
//resulting slice.
func (err *ConfigError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns whether the error can be ignored. It can't.
func (err *ConfigError) Critical() bool { return true }

//errDecorate decorates err with the caller's name if err implements
//bind.Error, and returns it unchanged otherwise.
func errDecorate(err error, caller string) error {
	err2, ok := err.(Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}
