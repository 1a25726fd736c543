// Copyright (c) 2026 Docforge Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import "os"

func main() {
	err := New().Execute()
	if err != nil {
		os.Exit(1)
	}
}
