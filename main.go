package main

import "github.com/dunterov/aws-csv-to-confluence/internal/cmd"

func main() {
	cmd.Execute()
}
