package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

var apiEndpoint = defaultEndpoint()

func defaultEndpoint() string {
	if url := strings.TrimSpace(os.Getenv("STABLE_API_URL")); url != "" {
		return url
	}
	return "http://localhost:8645"
}

func main() {
	args := os.Args[1:]
	args = applyGlobalFlags(args)

	if len(args) < 1 {
		printUsage()
		return
	}

	command := args[0]
	rest := args[1:]
	var err error
	switch command {
	case "init":
		err = requireArgs(rest, 2, "init <admin> <stable-symbol>", func() error {
			return post("/v1/init", map[string]any{"admin": rest[0], "stableSymbol": rest[1]})
		})
	case "configure-collateral":
		err = requireArgs(rest, 7, "configure-collateral <caller> <symbol> <oracle-ref> <decimals> <mcr> <ltr> <penalty>", func() error {
			decimals, convErr := strconv.ParseUint(rest[3], 10, 8)
			if convErr != nil {
				return fmt.Errorf("invalid decimals %q", rest[3])
			}
			mcr, convErr := strconv.ParseUint(rest[4], 10, 64)
			if convErr != nil {
				return fmt.Errorf("invalid mcr %q", rest[4])
			}
			ltr, convErr := strconv.ParseUint(rest[5], 10, 64)
			if convErr != nil {
				return fmt.Errorf("invalid ltr %q", rest[5])
			}
			penalty, convErr := strconv.ParseUint(rest[6], 10, 64)
			if convErr != nil {
				return fmt.Errorf("invalid penalty %q", rest[6])
			}
			return post("/v1/collateral", map[string]any{
				"caller":             rest[0],
				"symbol":             rest[1],
				"oracleRef":          rest[2],
				"decimals":           decimals,
				"mcr":                mcr,
				"ltr":                ltr,
				"liquidationPenalty": penalty,
			})
		})
	case "deposit", "withdraw", "mint", "burn":
		err = requireArgs(rest, 3, command+" <caller> <collateral> <amount>", func() error {
			return post("/v1/positions/"+command, map[string]any{
				"caller":     rest[0],
				"collateral": rest[1],
				"amount":     rest[2],
			})
		})
	case "liquidate":
		err = requireArgs(rest, 4, "liquidate <liquidator> <owner> <collateral> <amount>", func() error {
			return post("/v1/liquidations", map[string]any{
				"liquidator": rest[0],
				"owner":      rest[1],
				"collateral": rest[2],
				"amount":     rest[3],
			})
		})
	case "position":
		err = requireArgs(rest, 2, "position <owner> <collateral>", func() error {
			return get("/v1/positions/" + rest[0] + "/" + rest[1])
		})
	case "global":
		err = get("/v1/global")
	case "collateral":
		err = requireArgs(rest, 1, "collateral <symbol>", func() error {
			return get("/v1/collateral/" + rest[0])
		})
	case "configure-psm":
		err = requireArgs(rest, 4, "configure-psm <caller> <reference-symbol> <vault> <fee-bps>", func() error {
			fee, convErr := strconv.ParseUint(rest[3], 10, 64)
			if convErr != nil {
				return fmt.Errorf("invalid fee %q", rest[3])
			}
			return post("/v1/psm", map[string]any{
				"caller":          rest[0],
				"referenceSymbol": rest[1],
				"vault":           rest[2],
				"feeBasisPoints":  fee,
			})
		})
	case "swap-in", "swap-out":
		err = requireArgs(rest, 3, command+" <caller> <reference-symbol> <amount>", func() error {
			return post("/v1/psm/"+command, map[string]any{
				"caller":          rest[0],
				"referenceSymbol": rest[1],
				"amount":          rest[2],
			})
		})
	case "psm":
		err = requireArgs(rest, 1, "psm <reference-symbol>", func() error {
			return get("/v1/psm/" + rest[0])
		})
	case "pause", "unpause":
		err = requireArgs(rest, 1, command+" <caller>", func() error {
			return post("/v1/admin/pause", map[string]any{
				"caller": rest[0],
				"paused": command == "pause",
			})
		})
	case "freeze", "unfreeze":
		err = requireArgs(rest, 3, command+" <caller> <owner> <collateral>", func() error {
			return post("/v1/admin/freeze", map[string]any{
				"caller":     rest[0],
				"owner":      rest[1],
				"collateral": rest[2],
				"frozen":     command == "freeze",
			})
		})
	case "publish-price":
		err = requireArgs(rest, 2, "publish-price <oracle-ref> <price-usd-1e6>", func() error {
			price, convErr := strconv.ParseInt(rest[1], 10, 64)
			if convErr != nil {
				return fmt.Errorf("invalid price %q", rest[1])
			}
			return post("/v1/admin/oracle", map[string]any{
				"oracleRef": rest[0],
				"priceUsd":  price,
			})
		})
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func applyGlobalFlags(args []string) []string {
	remaining := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		if args[i] == "--api" && i+1 < len(args) {
			apiEndpoint = strings.TrimRight(args[i+1], "/")
			i++
			continue
		}
		remaining = append(remaining, args[i])
	}
	return remaining
}

func requireArgs(args []string, n int, usage string, fn func() error) error {
	if len(args) < n {
		return fmt.Errorf("usage: stable-cli %s", usage)
	}
	return fn()
}

func post(path string, body map[string]any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Post(apiEndpoint+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return render(resp)
}

func get(path string) error {
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Get(apiEndpoint + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return render(resp)
}

func render(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var pretty bytes.Buffer
	if json.Indent(&pretty, body, "", "  ") == nil {
		fmt.Println(pretty.String())
	} else {
		fmt.Println(strings.TrimSpace(string(body)))
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return nil
}

func printUsage() {
	fmt.Println(`Usage: stable-cli [--api <url>] <command> [args]

Commands:
  init <admin> <stable-symbol>
  configure-collateral <caller> <symbol> <oracle-ref> <decimals> <mcr> <ltr> <penalty>
  deposit|withdraw|mint|burn <caller> <collateral> <amount>
  liquidate <liquidator> <owner> <collateral> <amount>
  position <owner> <collateral>
  collateral <symbol>
  global
  configure-psm <caller> <reference-symbol> <vault> <fee-bps>
  swap-in|swap-out <caller> <reference-symbol> <amount>
  psm <reference-symbol>
  pause|unpause <caller>
  freeze|unfreeze <caller> <owner> <collateral>
  publish-price <oracle-ref> <price-usd-1e6>

The API endpoint defaults to http://localhost:8645 and can be overridden with
--api or the STABLE_API_URL environment variable.`)
}
