// Command ndnget fetches a named object from an NDN forwarder, exercising
// the segment fetcher (C6) and pipelined fetcher (C7) end-to-end. Cobra
// wiring follows the teacher's fw/cmd/cmd.go style.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	enc "github.com/ndncomm/ndn-js/encoding"
	"github.com/ndncomm/ndn-js/face"
	"github.com/ndncomm/ndn-js/fetch"
	"github.com/ndncomm/ndn-js/log"
	"github.com/ndncomm/ndn-js/ndn"
)

var opts struct {
	connScheme string
	connHost   string
	connPort   uint16
	connPath   string
	connUrl    string
	pipelined  bool
	timeout    time.Duration
}

var cmdNdnGet = &cobra.Command{
	Use:     "ndnget NAME",
	Short:   "Fetch a named object over NDN",
	Args:    cobra.ExactArgs(1),
	Version: "0.1.0",
	RunE:    run,
}

func init() {
	flags := cmdNdnGet.Flags()
	flags.StringVar(&opts.connScheme, "scheme", "unix", "transport scheme: tcp, unix, ws")
	flags.StringVar(&opts.connHost, "host", "127.0.0.1", "forwarder host (tcp)")
	flags.Uint16Var(&opts.connPort, "port", 6363, "forwarder port (tcp)")
	flags.StringVar(&opts.connPath, "path", "/var/run/nfd.sock", "forwarder socket path (unix)")
	flags.StringVar(&opts.connUrl, "url", "ws://127.0.0.1:9696", "forwarder URL (ws)")
	flags.BoolVar(&opts.pipelined, "pipeline", false, "use the pipelined fetcher instead of version discovery")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "overall fetch timeout")
}

func run(cmd *cobra.Command, args []string) error {
	name, err := enc.NameFromString(args[0])
	if err != nil {
		return fmt.Errorf("invalid name %q: %w", args[0], err)
	}

	ci := face.ConnectionInfo{
		Scheme: opts.connScheme,
		Host:   opts.connHost,
		Port:   opts.connPort,
		Path:   opts.connPath,
		Url:    opts.connUrl,
		Local:  true,
	}
	transport, err := face.NewTransport(ci)
	if err != nil {
		return err
	}

	f := face.NewFace(transport, ndn.NewSystemTimer())
	defer f.Close()

	done := make(chan struct{})
	var result []byte
	var fetchErr error

	onComplete := func(content []byte) {
		result = content
		close(done)
	}
	onError := func(err error) {
		fetchErr = err
		close(done)
	}

	if opts.pipelined {
		acc := &fetch.ConcatComplete{}
		pf := fetch.NewPipelinedFetcher(f, name, nil, nil, acc.OnSegment, func() {
			onComplete(acc.Bytes())
		}, onError)
		pf.Start()
	} else {
		fetch.Fetch(f, name, nil, nil, onComplete, onError)
	}

	select {
	case <-done:
	case <-time.After(opts.timeout):
		fetchErr = ndn.ErrInterestTimeout
	}

	if fetchErr != nil {
		log.Error(nil, "Fetch failed", "err", fetchErr)
		return fetchErr
	}

	_, err = os.Stdout.Write(result)
	return err
}

func main() {
	if err := cmdNdnGet.Execute(); err != nil {
		os.Exit(1)
	}
}
