package main

import (
	"encoding/json"
	"fmt"
	"os"
)

func printJSON(value any) error {
	content, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	content = append(content, '\n')
	_, err = os.Stdout.Write(content)
	return err
}
