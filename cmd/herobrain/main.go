// Command herobrain runs the Hero Brain website and the tools that maintain its testimonials.
package main

func main() {
	execute()
}
