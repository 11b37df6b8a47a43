// Command minipbctl is a thin CLI shim over the minipb public API: it
// loads a schema from a config file, reads a JSON payload from stdin,
// and writes the encoded bytes or decoded JSON tree to stdout. It never
// reaches into minipb's wire/schema/codec internals.
//
// JSON has no byte-string type, so a schema's 'a' (bytes) fields cannot
// round-trip through this CLI's stdin/stdout transport; every other
// semantic type does.
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	schemaFilePath string
	verbose        bool

	rootCmd = &cobra.Command{
		Use:   "minipbctl",
		Short: "Encode and decode messages against a minipb schema",
	}

	encodeCmd = &cobra.Command{
		Use:   "encode",
		Short: "Read a JSON payload from stdin, write encoded bytes (hex) to stdout",
		RunE:  runEncode,
	}

	decodeCmd = &cobra.Command{
		Use:   "decode",
		Short: "Read hex-encoded bytes from stdin, write the decoded payload as JSON to stdout",
		RunE:  runDecode,
	}
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func execute() error {
	rootCmd.PersistentFlags().StringVar(&schemaFilePath, "schema", "", "path to a schema config file (required)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print schema compile and byte count diagnostics")
	rootCmd.MarkPersistentFlagRequired("schema")

	rootCmd.AddCommand(encodeCmd, decodeCmd)
	return rootCmd.Execute()
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if !verbose {
		level = zerolog.Disabled
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).Level(level).With().Timestamp().Logger()
}

func runEncode(cmd *cobra.Command, _ []string) error {
	log := newLogger()

	schema, err := loadSchema(schemaFilePath)
	if err != nil {
		return err
	}
	log.Info().Str("schema_file", schemaFilePath).Msg("schema compiled")

	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	var payload interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("failed to parse payload JSON: %w", err)
	}
	payload = normalizePayload(payload)

	encoded, err := schema.Encode(payload)
	if err != nil {
		return fmt.Errorf("encode failed: %w", err)
	}
	log.Info().Int("bytes", len(encoded)).Msg("encoded")

	_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(encoded))
	return err
}

func runDecode(cmd *cobra.Command, _ []string) error {
	log := newLogger()

	schema, err := loadSchema(schemaFilePath)
	if err != nil {
		return err
	}
	log.Info().Str("schema_file", schemaFilePath).Msg("schema compiled")

	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	data, err := hex.DecodeString(trimNewline(raw))
	if err != nil {
		return fmt.Errorf("failed to parse hex input: %w", err)
	}
	log.Info().Int("bytes", len(data)).Msg("decoding")

	decoded, err := schema.Decode(data)
	if err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	out, err := json.MarshalIndent(decoded, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render decoded payload as JSON: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}

func trimNewline(b []byte) string {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r' || b[len(b)-1] == ' ') {
		b = b[:len(b)-1]
	}
	return string(b)
}

// normalizePayload widens encoding/json's float64 numbers into int64
// where they carry no fractional part, so integer-typed schema fields
// (which reject a float64 on encode, per minipb's strict typing) accept
// plain JSON integer literals.
func normalizePayload(v interface{}) interface{} {
	switch t := v.(type) {
	case float64:
		if t == float64(int64(t)) {
			return int64(t)
		}
		return t
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, elem := range t {
			out[i] = normalizePayload(elem)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, elem := range t {
			out[k] = normalizePayload(elem)
		}
		return out
	default:
		return v
	}
}
