/*
Package docker binds the generic resource proxy to concrete docker CLI
resource kinds: contexts, networks and volumes.

Each kind has three parts: an inspect record decoded with an explicit
field table, a Kind descriptor naming the management command, and a
typed wrapper around resource.Proxy exposing one accessor per field.
The ContextCLI, NetworkCLI and VolumeCLI facades run the collection
commands (list, inspect, remove, create).

# Usage

	client, err := docker.New(config.Options{Context: "prod"})
	if err != nil {
		return err
	}

	networks, err := client.Network.List(ctx)
	if err != nil {
		return err
	}
	for _, n := range networks {
		driver, err := n.Driver(ctx) // first access runs `network inspect`
		if err != nil {
			return err
		}
		fmt.Println(n.Target(), driver)
	}

Context creation, export, import, update and use are declared but return
resource.ErrNotImplemented without running anything.
*/
package docker
