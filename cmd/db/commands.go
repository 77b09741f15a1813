package db

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/QingYi-Studio/tylddb/cmd/util"
	"github.com/QingYi-Studio/tylddb/lib/lddb"
	"github.com/QingYi-Studio/tylddb/lib/serializer"
	"github.com/spf13/cobra"
)

// parseTypedValue resolves a type tag and coerces a raw command-line value
func parseTypedValue(typeTag, raw string) (lddb.ValueType, lddb.Value, error) {
	vt, ok := lddb.ParseValueType(typeTag)
	if !ok {
		return "", lddb.Value{}, fmt.Errorf("unknown type %q (legal: string, integer, float, boolean, list)", typeTag)
	}
	value, err := lddb.ParseValue(vt, raw)
	if err != nil {
		return "", lddb.Value{}, err
	}
	return vt, value, nil
}

var (
	getCmd = &cobra.Command{
		Use:   "get [type] [key]",
		Short: "Reads the value stored under a (type, key) pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entryType, key := args[0], args[1]
			value, err := engine.Get(entryType, key)
			if err != nil {
				return err
			}
			fmt.Printf("type=%s, key=%s, value=%s\n", entryType, key, value)
			return nil
		},
	}
	addCmd = &cobra.Command{
		Use:   "add [type] [key] [value]",
		Short: "Inserts a new entry (fails silently if the pair exists)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			vt, value, err := parseTypedValue(args[0], args[2])
			if err != nil {
				return err
			}
			added, err := engine.Store().Add(string(vt), args[1], value)
			if err != nil {
				return err
			}
			if added {
				fmt.Println("added successfully")
			} else {
				fmt.Println("not added (pair already exists)")
			}
			return nil
		},
	}
	updateCmd = &cobra.Command{
		Use:   "update [type] [key] [value]",
		Short: "Updates the value of an existing entry",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			vt, value, err := parseTypedValue(args[0], args[2])
			if err != nil {
				return err
			}
			updated, err := engine.Store().UpdateValue(string(vt), args[1], value)
			if err != nil {
				return err
			}
			if updated {
				fmt.Println("updated successfully")
			} else {
				fmt.Println("not updated (pair does not exist)")
			}
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [type] [key]",
		Short: "Removes the entry stored under a (type, key) pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := engine.Store().RemoveKey(args[0], args[1])
			if err != nil {
				return err
			}
			if removed {
				fmt.Println("removed successfully")
			} else {
				fmt.Println("not removed (pair does not exist)")
			}
			return nil
		},
	}
	searchCmd = &cobra.Command{
		Use:   "search [key]",
		Short: "Finds the key across all types",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			values, err := engine.SearchAllByKey(key)
			if err != nil {
				return err
			}
			if len(values) == 0 {
				fmt.Printf("key=%s, no matches\n", key)
				return nil
			}
			for _, v := range values {
				fmt.Printf("type=%s, key=%s, value=%s\n", v.Type, key, v)
			}
			return nil
		},
	}
	keysCmd = &cobra.Command{
		Use:   "keys [type]",
		Short: "Lists all keys of a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := engine.Store().GetKeysByType(args[0])
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Println(k)
			}
			return nil
		},
	}
	typesCmd = &cobra.Command{
		Use:   "types",
		Short: "Lists entry counts per type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := engine.Store().GetTypeStatistics()
			if err != nil {
				return err
			}
			for _, tc := range stats {
				fmt.Printf("%-12s%d\n", tc.Type, tc.Count)
			}
			return nil
		},
	}
	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Prints store statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := engine.Store().GetInfo()
			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))

			fmt.Println("\noperation counters:")
			engine.Store().WriteMetrics(os.Stdout)
			return nil
		},
	}
	exportCmd = &cobra.Command{
		Use:   "export [path]",
		Short: "Exports the loaded store as a serialized dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := util.GetSerializer()
			if err != nil {
				return err
			}

			dump, err := buildDump()
			if err != nil {
				return err
			}

			data, err := s.Serialize(dump)
			if err != nil {
				return err
			}

			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return err
			}
			fmt.Printf("exported %d entries to %s\n", len(dump.Records), args[0])
			return nil
		},
	}
)

// buildDump snapshots the store into a serializable dump, ordered by type
// then key
func buildDump() (serializer.Dump, error) {
	st := engine.Store()

	dump := serializer.Dump{}
	if name, ok := engine.Section(); ok {
		dump.Section = name
	}

	stats, err := st.GetTypeStatistics()
	if err != nil {
		return serializer.Dump{}, err
	}

	for _, tc := range stats {
		keys, err := st.GetKeysByType(tc.Type)
		if err != nil {
			return serializer.Dump{}, err
		}
		for _, key := range keys {
			value, err := st.Get(tc.Type, key)
			if err != nil {
				return serializer.Dump{}, err
			}
			dump.Records = append(dump.Records, serializer.Record{
				Type:  tc.Type,
				Key:   key,
				Value: value.String(),
			})
		}
	}
	return dump, nil
}
