// Command slotctl drives slotkit storages through scripted workloads and
// reports allocator accounting.
package main

func main() {
	execute()
}
