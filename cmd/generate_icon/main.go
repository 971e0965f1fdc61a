package main

import (
	"fmt"
	"log"
	"os"

	"asconsole/pkg/ui"
)

func main() {
	out := "Icon.png"
	if len(os.Args) > 1 {
		out = os.Args[1]
	}
	if err := ui.WriteIcon(out); err != nil {
		log.Fatal("Failed to generate icon:", err)
	}
	fmt.Println("Icon generated successfully:", out)
}
