// Command arup is a CLI front end over the arweave package: upload files,
// refresh their confirmation status, and query wallet/network info.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/liteseed/arcore"
	"github.com/liteseed/arcore/pipeline"
	"github.com/liteseed/arcore/status"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "upload":
		runUpload(os.Args[2:])
	case "refresh":
		runRefresh(os.Args[2:])
	case "status":
		runStatus(os.Args[2:])
	case "balance":
		runBalance(os.Args[2:])
	case "price":
		runPrice(os.Args[2:])
	case "info":
		runInfo(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: arup <upload|refresh|status|balance|price|info> [flags] [paths...]")
}

func commonFlags(fs *flag.FlagSet) (key, gw, logDir *string) {
	key = fs.String("key", "./arweave.json", "path to a JWK keyfile")
	gw = fs.String("gateway", "https://arweave.net/", "gateway base URL")
	logDir = fs.String("log-dir", "./.arup", "directory for status records")
	return
}

func runUpload(args []string) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	key, gw, logDir := commonFlags(fs)
	buffer := fs.Int("buffer", 4, "max concurrent uploads")
	fs.Parse(args)

	a, err := arweave.FromPath(*key, *gw)
	if err != nil {
		log.Fatal(err)
	}
	if err := os.MkdirAll(*logDir, 0o755); err != nil {
		log.Fatal(err)
	}

	driver := a.Pipeline(*logDir, pipeline.Config{Buffer: *buffer})
	for result := range driver.UploadStream(context.Background(), fs.Args()) {
		if result.Err != nil {
			fmt.Printf("%s: error: %v\n", result.Path, result.Err)
			continue
		}
		fmt.Printf("%s: %s %s\n", result.Path, result.Status.Status, result.Status.ID)
	}
}

func runRefresh(args []string) {
	fs := flag.NewFlagSet("refresh", flag.ExitOnError)
	key, gw, logDir := commonFlags(fs)
	buffer := fs.Int("buffer", 4, "max concurrent refreshes")
	fs.Parse(args)

	a, err := arweave.FromPath(*key, *gw)
	if err != nil {
		log.Fatal(err)
	}

	driver := a.Pipeline(*logDir, pipeline.Config{Buffer: *buffer})
	for result := range driver.RefreshStream(context.Background(), fs.Args()) {
		if result.Err != nil {
			fmt.Printf("%s: error: %v\n", result.Path, result.Err)
			continue
		}
		fmt.Printf("%s: %s\n", result.Path, result.Status.Status)
	}
}

func runStatus(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	key, gw, logDir := commonFlags(fs)
	code := fs.String("status", "", "filter by status (Submitted, Pending, Confirmed, NotFound)")
	minConfirms := fs.Int64("min-confirms", -1, "minimum confirmations, when filtering by Confirmed")
	fs.Parse(args)

	a, err := arweave.FromPath(*key, *gw)
	if err != nil {
		log.Fatal(err)
	}
	driver := a.Pipeline(*logDir, pipeline.Config{})

	if *code == "" {
		store := status.NewStore(*logDir)
		all, err := store.ReadAll(fs.Args())
		if err != nil {
			log.Fatal(err)
		}
		for _, st := range all {
			fmt.Printf("%s: %s %s\n", st.FilePath, st.Status, st.ID)
		}
		return
	}

	var minPtr *int64
	if *minConfirms >= 0 {
		minPtr = minConfirms
	}
	matched, err := driver.FilterStatuses(fs.Args(), status.Code(*code), minPtr)
	if err != nil {
		log.Fatal(err)
	}
	for _, st := range matched {
		fmt.Printf("%s: %s %s\n", st.FilePath, st.Status, st.ID)
	}
}

func runBalance(args []string) {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	key, gw, _ := commonFlags(fs)
	fs.Parse(args)

	a, err := arweave.FromPath(*key, *gw)
	if err != nil {
		log.Fatal(err)
	}
	balance, err := a.Balance(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(balance)
}

func runPrice(args []string) {
	fs := flag.NewFlagSet("price", flag.ExitOnError)
	key, gw, _ := commonFlags(fs)
	bytes := fs.Int("bytes", 0, "payload size in bytes")
	fs.Parse(args)

	a, err := arweave.FromPath(*key, *gw)
	if err != nil {
		log.Fatal(err)
	}
	price, err := a.Price(context.Background(), *bytes)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(price)
}

func runInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	key, gw, _ := commonFlags(fs)
	fs.Parse(args)

	a, err := arweave.FromPath(*key, *gw)
	if err != nil {
		log.Fatal(err)
	}
	info, err := a.Gateway.GetNetworkInfo(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%+v\n", info)
}
