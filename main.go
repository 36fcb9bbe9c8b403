package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/soundtrace/engine/utils"
)

const songsDir = "songs"

func main() {
	_ = utils.CreateFolder("tmp")
	_ = utils.CreateFolder(songsDir)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	_ = godotenv.Load()

	switch os.Args[1] {
	case "find":
		if len(os.Args) < 3 {
			fmt.Println("usage: soundtrace find <path_to_audio_file>")
			os.Exit(1)
		}
		find(os.Args[2])

	case "resolve":
		if len(os.Args) < 3 {
			fmt.Println("usage: soundtrace resolve <track_url>")
			os.Exit(1)
		}
		resolveAndIngest(os.Args[2])

	case "exists":
		if len(os.Args) < 3 {
			fmt.Println("usage: soundtrace exists <track_id>")
			os.Exit(1)
		}
		existsCmd(os.Args[2])

	case "serve":
		serveCmd := flag.NewFlagSet("serve", flag.ExitOnError)
		protocol := serveCmd.String("proto", "http", "protocol to use (http or https)")
		port := serveCmd.String("p", "5000", "port to use")
		serveCmd.Parse(os.Args[2:])
		serve(*protocol, *port)

	case "erase":
		dbOnly := true
		all := false

		if len(os.Args) > 2 {
			switch os.Args[2] {
			case "db":
				dbOnly = true
			case "all":
				dbOnly = false
				all = true
			default:
				fmt.Println("usage: soundtrace erase [db | all]")
				os.Exit(1)
			}
		}

		erase(songsDir, dbOnly, all)

	case "save":
		indexCmd := flag.NewFlagSet("save", flag.ExitOnError)
		force := indexCmd.Bool("force", false, "index file even without complete metadata")
		indexCmd.BoolVar(force, "f", false, "index file even without complete metadata (shorthand)")
		indexCmd.Parse(os.Args[2:])
		if indexCmd.NArg() < 1 {
			fmt.Println("usage: soundtrace save [-f|--force] <path_to_file_or_dir>")
			os.Exit(1)
		}
		save(indexCmd.Arg(0), *force)

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("usage: soundtrace <command>")
	fmt.Println()
	fmt.Println("commands:")
	fmt.Println("  find    <audio_file>            match a file against the index")
	fmt.Println("  save    [-f] <file_or_dir>      index audio file(s) into the store")
	fmt.Println("  resolve <track_url>             resolve a catalog URL and ingest it")
	fmt.Println("  exists  <track_id>              report whether a track id is indexed")
	fmt.Println("  erase   [db | all]              clear the store (and optionally audio files)")
	fmt.Println("  serve   [-proto http] [-p 5000] start the web server")
}
