package main

import "fmt"

const version = "1.0.0"

// PrintVersion prints version information
func PrintVersion() {
	fmt.Printf("esgclean version %s\n", version)
	fmt.Println("ESG dataset cleaning pipeline")
}

// PrintHelp prints help information
func PrintHelp() {
	fmt.Println("esgclean - ESG dataset cleaning pipeline")
	fmt.Printf("Version: %s\n\n", version)

	fmt.Println("USAGE:")
	fmt.Println("  esgclean [options]")
	fmt.Println()

	fmt.Println("STAGES:")
	fmt.Println("  load       read source CSV/TSV/XLSX (N/A, n/a, na, NA, empty and standard NA tokens are null)")
	fmt.Println("  transform  null_filler -> date_normalizer -> minmax_scaler -> column_dropper")
	fmt.Println("  preview    print first rows of the cleaned table")
	fmt.Println("  export     write CSV (optionally zstd), XLSX or database table")
	fmt.Println("  upload     copy written file to S3 (output.upload)")
	fmt.Println()

	fmt.Println("OPTIONS:")
	fmt.Println("    --config <file>            Pipeline configuration (default: built-in)")
	fmt.Println("    --input <file>             Source file (default: data.csv); format and delimiter follow its extension")
	fmt.Println("    --output <file>            Destination file (default: cleaned_esg.csv)")
	fmt.Println("    --create-config            Write sample pipeline.yaml")
	fmt.Println("    --version                  Show version")
	fmt.Println("    --help                     Show this help")
	fmt.Println()

	fmt.Println("EXAMPLES:")
	fmt.Println("  esgclean")
	fmt.Println("  esgclean --input esg_2022.csv --output cleaned_2022.csv")
	fmt.Println("  esgclean --create-config && esgclean --config pipeline.yaml")
	fmt.Println()

	fmt.Println("EXIT CODES:")
	fmt.Println("  0  pipeline completed")
	fmt.Println("  1  pipeline failed (failed stage is logged)")
}
