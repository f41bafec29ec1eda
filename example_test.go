package formbody_test

import (
	"fmt"

	"github.com/adamwoolhether/formbody"
	"github.com/adamwoolhether/formbody/form"
)

func ExampleNewForm() {
	fd, err := formbody.NewForm(form.WithBoundary("B1"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if err := fd.Append("name", form.Text("John Doe")); err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("%q\n", fd.Encode())
	// Output: "--B1\r\nContent-Disposition: form-data; name=\"name\"\r\n\r\nJohn Doe\r\n--B1--\r\n"
}

func ExampleNewClient() {
	c, err := formbody.NewClient()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	u := c.URL("https", "api.example.com", "/v1/upload")
	fmt.Println(u)
	// Output: https://api.example.com/v1/upload
}
