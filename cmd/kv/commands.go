package kv

import (
	"fmt"

	"github.com/ValentinKolb/hKV/cmd/util"
	"github.com/ValentinKolb/hKV/rpc/client"
	"github.com/spf13/cobra"
)

var (
	hgetCmd = &cobra.Command{
		Use:   "hget [table] [key]",
		Short: "Reads the value of a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, key := args[0], args[1]
			value, err := rpcClient.Hget(table, key)
			if client.IsNotFound(err) {
				fmt.Printf("table=%s, key=%s, found=false\n", table, key)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Printf("table=%s, key=%s, found=true, value=%s\n", table, key, value)
			return nil
		},
	}
	hgetallCmd = &cobra.Command{
		Use:   "hgetall [table]",
		Short: "Reads all pairs of a table sorted by key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := rpcClient.Hgetall(args[0])
			if err != nil {
				return err
			}
			for _, pair := range pairs {
				fmt.Printf("%s=%s\n", pair.Key, pair.Value)
			}
			fmt.Printf("(%d pairs)\n", len(pairs))
			return nil
		},
	}
	hsetCmd = &cobra.Command{
		Use:   "hset [table] [key] [value]",
		Short: "Sets the value of a key and prints the previous value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, _ := cmd.Flags().GetString("type")
			value, err := util.ParseValue(typ, args[2])
			if err != nil {
				return err
			}
			old, err := rpcClient.Hset(args[0], args[1], value)
			if err != nil {
				return err
			}
			fmt.Printf("table=%s, key=%s, previous=%s\n", args[0], args[1], old)
			return nil
		},
	}
	hdelCmd = &cobra.Command{
		Use:   "hdel [table] [key]",
		Short: "Deletes a key and prints the removed value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			old, err := rpcClient.Hdel(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("table=%s, key=%s, removed=%s\n", args[0], args[1], old)
			return nil
		},
	}
	hexistCmd = &cobra.Command{
		Use:   "hexist [table] [key]",
		Short: "Checks if a key exists",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			found, err := rpcClient.Hexist(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("table=%s, key=%s, found=%t\n", args[0], args[1], found)
			return nil
		},
	}
)

func init() {
	hsetCmd.Flags().String("type", "string", util.WrapString("The type of the value ("+util.ValueTypes+")"))
}
