// Command carpetcat is a small debug tool: it derives a Parquet schema from
// a handful of built-in demo record types, writes a few sample rows through
// the normal CarpetWriter/MemSink path, reads them back through
// CarpetReader, and prints both the schema and the round-tripped rows as
// tables. There being no real Parquet file container in this repo (spec
// §1), carpetcat exercises exactly the pipeline that exists: derive, write,
// read, format.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"

	carpet "github.com/jerolba/carpet-go"
)

type address struct {
	City    string
	ZipCode string `carpet:"zip_code"`
}

type person struct {
	Name      string
	Age       int32
	Email     *string
	CreatedAt time.Time `carpet:"unit=micros"`
	Tags      []string
	Home      address
}

func main() {
	cfg := carpet.NewConfig()

	writer, err := carpet.NewCarpetWriter[person](cfg)
	if err != nil {
		log.Fatalf("carpetcat: deriving schema: %v", err)
	}

	email := "ada@example.com"
	rows := []person{
		{Name: "Ada Lovelace", Age: 28, Email: &email, CreatedAt: time.Now(), Tags: []string{"math", "computing"}, Home: address{City: "London", ZipCode: "SW1A"}},
		{Name: "Alan Turing", Age: 41, CreatedAt: time.Now(), Tags: nil, Home: address{City: "Manchester", ZipCode: "M1"}},
	}
	if err := writer.WriteAll(rows); err != nil {
		log.Fatalf("carpetcat: writing rows: %v", err)
	}

	printSchema(writer.Schema())

	reader, err := carpet.NewCarpetReader[person](writer.Sink().Rows(), cfg)
	if err != nil {
		log.Fatalf("carpetcat: building reader: %v", err)
	}
	printRows(reader)
}

// printSchema flattens the derived MessageType's leaves into a
// column/repetition/physical/logical table.
func printSchema(schema *carpet.MessageType) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Column", "Repetition", "Physical", "Logical")
	for _, row := range schemaRows("", schema) {
		table.Append(row)
	}
	fmt.Println("Schema:")
	table.Render()
	fmt.Println()
}

func schemaRows(prefix string, node *carpet.Node) [][]string {
	var out [][]string
	for _, child := range node.Children {
		name := prefix + child.Name
		if child.IsLeaf() {
			logical := "-"
			if child.Logical != nil {
				logical = child.Logical.Kind.String()
			}
			out = append(out, []string{name, child.Repetition.String(), child.Physical.String(), logical})
			continue
		}
		out = append(out, schemaRows(name+".", child)...)
	}
	return out
}

func printRows(reader *carpet.CarpetReader[person]) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Age", "Email", "Tags", "City")
	for record, err := range reader.All() {
		if err != nil {
			log.Fatalf("carpetcat: reading row: %v", err)
		}
		email := "-"
		if record.Email != nil {
			email = *record.Email
		}
		table.Append([]string{record.Name, fmt.Sprint(record.Age), email, fmt.Sprint(record.Tags), record.Home.City})
	}
	fmt.Println("Rows:")
	table.Render()
}
