// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var errNoTopic = errors.New("no research topic provided")

// promptTopic asks for a topic on w and reads lines from r until one is
// non-blank. Reaching end of input without a topic is an error.
func promptTopic(r io.Reader, w io.Writer) (string, error) {
	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprint(w, topicPrompt)
		if !scanner.Scan() {
			fmt.Fprintln(w)
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("reading topic: %w", err)
			}
			return "", errNoTopic
		}
		topic := strings.TrimSpace(scanner.Text())
		if topic != "" {
			return topic, nil
		}
		fmt.Fprintln(w, blankTopicMsg)
	}
}
