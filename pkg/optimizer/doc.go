/*
The optimizer removes redundant, safely interchangeable candidate packages from a pool before it is handed to the solver.
Candidates whose relevant dependency structure is indistinguishable from the perspective of every package requiring or
conflicting with them only blow up the solver's search space, so all but the policy-preferred representatives of each
equivalence group are dropped while every package pinned by the request, an alias relation or a replacement survives.
*/
package optimizer
