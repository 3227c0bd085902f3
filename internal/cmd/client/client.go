package clientcmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// APIURL resolves the server base URL; injected by the root command.
type APIURL func() string

// NewLogCommand builds the `log` command group: append and flush against a
// running server.
func NewLogCommand(apiURL APIURL) *cobra.Command {
	logCmd := &cobra.Command{Use: "log", Short: "Log operations"}

	appendCmd := &cobra.Command{
		Use:   "append [lines...]",
		Short: "Append log lines to a partition",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			partition, _ := cmd.Flags().GetString("partition")
			ts, _ := cmd.Flags().GetUint64("ts")

			entries := make([]map[string]any, 0, len(args))
			for _, line := range args {
				e := map[string]any{"line": line}
				if ts != 0 {
					e["ts"] = ts
				}
				entries = append(entries, e)
			}
			body := map[string]any{"partition": partition, "entries": entries}
			return postJSON(apiURL()+"/v1/logs", body, cmd.OutOrStdout())
		},
	}
	appendCmd.Flags().String("partition", "default", "Target partition")
	appendCmd.Flags().Uint64("ts", 0, "Timestamp for all lines (default: server time)")
	logCmd.AddCommand(appendCmd)

	flushCmd := &cobra.Command{
		Use:   "flush",
		Short: "Seal the partition's open segment",
		RunE: func(cmd *cobra.Command, args []string) error {
			partition, _ := cmd.Flags().GetString("partition")
			return postJSON(apiURL()+"/v1/flush", map[string]any{"partition": partition}, cmd.OutOrStdout())
		},
	}
	flushCmd.Flags().String("partition", "default", "Target partition")
	logCmd.AddCommand(flushCmd)

	return logCmd
}

// NewQueryCommand builds the `query` command: search sealed segments.
func NewQueryCommand(apiURL APIURL) *cobra.Command {
	queryCmd := &cobra.Command{
		Use:   "query [text]",
		Short: "Search a partition's sealed segments",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			partition, _ := cmd.Flags().GetString("partition")
			start, _ := cmd.Flags().GetUint64("start")
			end, _ := cmd.Flags().GetUint64("end")
			filter, _ := cmd.Flags().GetString("filter")
			limit, _ := cmd.Flags().GetInt("limit")

			params := url.Values{}
			params.Set("partition", partition)
			if len(args) == 1 {
				params.Set("q", args[0])
			}
			if start != 0 {
				params.Set("start", strconv.FormatUint(start, 10))
			}
			if end != 0 {
				params.Set("end", strconv.FormatUint(end, 10))
			}
			if filter != "" {
				params.Set("filter", filter)
			}
			if limit > 0 {
				params.Set("limit", strconv.Itoa(limit))
			}

			resp, err := http.Get(apiURL() + "/v1/query?" + params.Encode())
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return readError(resp)
			}

			var out struct {
				Matches []struct {
					Segment uint64 `json:"segment"`
					Ts      uint64 `json:"ts"`
					Line    string `json:"line"`
				} `json:"matches"`
				SegmentsScanned int `json:"segmentsScanned"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, m := range out.Matches {
				fmt.Fprintf(w, "%s\t%s\n", time.UnixMilli(int64(m.Ts)).UTC().Format(time.RFC3339), m.Line)
			}
			fmt.Fprintf(w, "%d matches across %d segments\n", len(out.Matches), out.SegmentsScanned)
			return nil
		},
	}
	queryCmd.Flags().String("partition", "default", "Partition to search")
	queryCmd.Flags().Uint64("start", 0, "Start timestamp (inclusive)")
	queryCmd.Flags().Uint64("end", 0, "End timestamp (inclusive)")
	queryCmd.Flags().String("filter", "", "CEL filter expression")
	queryCmd.Flags().Int("limit", 0, "Max matches (0 = server default)")
	return queryCmd
}

func postJSON(url string, body any, out io.Writer) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := http.Post(url, "application/json", strings.NewReader(string(b)))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return readError(resp)
	}
	io.Copy(io.Discard, resp.Body)
	fmt.Fprintln(out, "status:", resp.Status)
	return nil
}

func readError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return fmt.Errorf("%s: %s", resp.Status, body.Error)
	}
	return fmt.Errorf("unexpected status %s", resp.Status)
}
