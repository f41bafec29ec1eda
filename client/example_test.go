package client_test

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"

	"github.com/adamwoolhether/formbody/client"
	"github.com/adamwoolhether/formbody/form"
)

func ExampleClient_DoForm() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mw := multipart.NewWriter(w)
		w.Header().Set("Content-Type", mw.FormDataContentType())
		_ = mw.WriteField("greeting", "hello")
		_ = mw.Close()
	}))
	defer ts.Close()

	c, err := client.Build()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	u, _ := url.Parse(ts.URL)
	req, err := c.Request(context.Background(), u, http.MethodGet)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fd, err := c.DoForm(req, http.StatusOK)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	for _, p := range fd.Parts() {
		fmt.Printf("%s=%s\n", p.DispositionName(), p.Data)
	}
	// Output: greeting=hello
}

func ExampleWithForm() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, r.FormValue("name"))
	}))
	defer ts.Close()

	fd, err := form.New()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	_ = fd.Append("name", form.Text("John Doe"))

	c, err := client.Build()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	u, _ := url.Parse(ts.URL)
	req, err := c.Request(context.Background(), u, http.MethodPost, client.WithForm(fd))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	resp, err := c.Stream(req, http.StatusOK)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	echoed, _ := io.ReadAll(resp.Body)
	fmt.Println(string(echoed))
	// Output: John Doe
}
