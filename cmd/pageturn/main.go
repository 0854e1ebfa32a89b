// Command pageturn opens office and ebook documents from the terminal:
// view them page by page, dump their text, print their outline, or serve
// them over HTTP.
package main

func main() {
	Execute()
}
