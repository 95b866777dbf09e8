// Command regkeyitem decodes the key-item subtree of a REGF hive file
// (nk/sk cells, class names, values lists, and the sub-keys index) and
// prints it as an indented tree, exercising the full keyitem/lazytree
// pipeline end-to-end.
package main

func main() {
	execute()
}
